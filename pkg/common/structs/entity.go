package structs

// Entity is anything the entity cache can hold: a comparable handle with a unique name.
// Entities are referenced through pointers, so the zero value is nil and means "absent".
type Entity interface {
	comparable
	GetName() string
}
