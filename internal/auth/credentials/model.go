package credentials

// Account is what a successful password check yields. A second factor
// means the attempt cannot complete on the password alone.
type Account struct {
	UserID              string
	SecondFactorEnabled bool
}
