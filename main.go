package main

import (
	"context"
	"os"

	"github.com/hostutils/diskinfo/internal/cmd"
)

func main() {
	if err := cmd.MainCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
