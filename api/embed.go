// Package api ships the OpenAPI document served under /swagger/.
package api

import _ "embed"

//go:embed swagger/users.swagger.json
var SwaggerJSON []byte
