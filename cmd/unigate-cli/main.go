package main

import (
	"context"

	"unigate-backend/cmd/unigate-cli/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
