// Package main is the seed tool: it fills a shopapi database with sample
// users, products and orders through the same services the API uses.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
