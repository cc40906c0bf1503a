package main

import (
	_ "github.com/MimoJanra/SitePulse/docs"
)

// @title           SitePulse API
// @version         1.0
// @description     Uptime monitoring: check cycles, incidents and alert contacts.

// @host      localhost:8080
// @BasePath  /
// @schemes   http

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	Execute()
}
