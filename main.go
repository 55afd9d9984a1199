package main

import "banthub/internal/app"

// @title           BantHub API
// @version         1.0
// @description     Social forum backend: posts, comments, follows and media.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
