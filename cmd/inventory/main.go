package main

import "github.com/storefront/inventory-api/app/cli"

func main() {
	cli.Execute()
}
