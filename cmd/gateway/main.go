package main

import "github.com/youmna-rabie/rag-gateway/internal/cli"

func main() {
	cli.Execute()
}
