package main

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/cli"
)

// @title			Storefront API
// @version		1.0
// @description	サリー店舗の公開API
// @BasePath		/
func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
