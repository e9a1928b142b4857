package main

import (
	"os"

	"github.com/yigit/edusponsor/internal/pkg/logger"
)

// @title EduSponsor API
// @version 1.0
// @description API connecting sponsors with students: schools, students, sponsorships, donations and Stripe payments
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@edusponsor.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization, prefixed with "Bearer "

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
