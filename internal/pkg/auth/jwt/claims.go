package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims issued to
// signed-in users. It includes standard claims required by the JWT
// specification and the custom claims needed to identify the caller on
// subsequent API requests.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the account's unique identifier.
	ID string `json:"id"`

	// Username is the account's login name, carried for logging and display.
	Username string `json:"username"`
}
