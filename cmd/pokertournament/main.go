package main

import (
	"context"
	"io"
	"os"
)

func main() {
	if err := execute(context.Background(), os.Args[1:], os.Stdout); err != nil {
		os.Exit(1)
	}
}

func execute(ctx context.Context, args []string, out io.Writer) error {
	a := &app{}
	defer a.close()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(out)
	return cmd.ExecuteContext(ctx)
}
