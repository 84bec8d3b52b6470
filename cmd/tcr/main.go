package main

import "github.com/ogulcanaydogan/aws-cost-reporter/internal/cli"

func main() {
	cli.Execute()
}
