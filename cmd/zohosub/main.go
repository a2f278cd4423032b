package main

import (
	"os"

	"github.com/dmitriy-luch/zoho-subscription-api/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
