// Package fixture declares annotated types that the mapper tests run every
// strategy against. mapper_gen.go is mapgen output; refresh it with go generate.
package fixture

//go:generate go run github.com/Station-Manager/mapper/cmd/mapgen

type Contact struct {
	Email string
}

type Person struct {
	FirstName  string
	LastName   string
	MiddleName string
	*Contact
}

//mapper:from Person
//mapper:with MiddleName OptionalName
type PersonViewModel struct {
	FirstName    string
	FamilyName   string `mapsfrom:"LastName"`
	OptionalName string
	Email        string
}

// OtherPersonModel takes its first name from the family name.
//
//mapper:from Person
type OtherPersonModel struct {
	FirstName string `mapsfrom:"LastName"`
}

// Views maps people with the generated function.
func Views(people []Person) []PersonViewModel {
	out := make([]PersonViewModel, len(people))
	for i, p := range people {
		out[i] = ToPersonViewModel(p)
	}
	return out
}
