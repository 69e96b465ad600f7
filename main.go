package main

import "github.com/meetsync/meetsync-api/cmd"

// @title           MeetSync API
// @version         1.0.0
// @description     Meeting intelligence API with async contact extraction and HubSpot sync
// @contact.name    API Support
// @contact.url     https://github.com/meetsync/meetsync-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
