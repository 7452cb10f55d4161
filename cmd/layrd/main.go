// Package main is the entry point for layrd.
//
//	@title						Layr - Component Registry Server
//	@version					1.0
//	@description				Serves the exposed surface of a component registry over a versioned wire protocol.
//	@termsOfService				https://github.com/pokkur/layr
//
//	@contact.name				Layr Support
//	@contact.url				https://github.com/pokkur/layr/issues
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication (format: "Bearer {token}")
package main

func main() {
	Execute()
}
