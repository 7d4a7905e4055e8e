package main

import (
	"contract-registry-api/app"
)

// @title           Contract Registry API
// @version         1.0
// @description     Government contract registry with approval-based accounts and division-scoped visibility.

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
