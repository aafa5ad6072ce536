package main

import (
	"github.com/mj1618/eva/cmd"
	_ "github.com/mj1618/eva/internal/platform/linux"
)

func main() {
	cmd.Execute()
}
