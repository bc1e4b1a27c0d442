package main

import (
	"context"
	"fmt"
	"os"

	"github.com/darekanikki/diary-backend/internal/app"
	"github.com/darekanikki/diary-backend/internal/platform/shutdown"
)

func main() {
	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}

	err = a.Run(ctx)
	a.Close()
	if err != nil {
		fmt.Printf("Server failed: %v\n", err)
		os.Exit(1)
	}
}
