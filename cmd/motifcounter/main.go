package main

import (
	"github.com/matthuska/motifcounter/internal/app"
	"github.com/matthuska/motifcounter/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
