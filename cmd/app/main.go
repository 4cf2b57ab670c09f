package main

import (
	"github.com/addy/pointing-poker-api/internal/app"
	"github.com/addy/pointing-poker-api/internal/config"
)

func main() {
	app.Go(config.Load())
}
