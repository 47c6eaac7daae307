package domain

// Entity is a record owned by the store. WithID returns a copy carrying id.
type Entity[T any] interface {
	GetID() string
	WithID(id string) T
}

func sameID[T interface{ GetID() string }](a, b T) bool {
	return a.GetID() != "" && a.GetID() == b.GetID()
}

// SameUser reports whether a and b refer to the same stored user.
func SameUser(a, b User) bool { return sameID(a, b) }

// SameProduct reports whether a and b refer to the same stored product.
func SameProduct(a, b Product) bool { return sameID(a, b) }

// SameOrder reports whether a and b refer to the same stored order.
func SameOrder(a, b Order) bool { return sameID(a, b) }
