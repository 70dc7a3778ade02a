package model

// OAuthProfile is the provider-verified identity handed to the OAuth bridge.
type OAuthProfile struct {
	Provider   string
	Subject    string
	Email      string
	GivenName  string
	FamilyName string
}
