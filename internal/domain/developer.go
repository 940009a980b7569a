package domain

// DeveloperInfo is the static contact record served by the intercept branch.
type DeveloperInfo struct {
	Name    string
	Phone   string
	Email   string
	Address string
}
