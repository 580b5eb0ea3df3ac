package main

import (
	"context"
	"os"

	"github.com/MrSnakeDoc/marks/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		os.Stderr.WriteString("❌ marks: " + err.Error() + "\n")
		os.Exit(1)
	}
}
