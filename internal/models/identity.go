package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Identity — аутентифицированный актор запроса.
// Разрешается один раз (middleware) и неизменен на время запроса.
type Identity struct {
	ID       primitive.ObjectID
	Username string
	IsAdmin  bool
	IsStaff  bool
}

// Capability — именованный бит разрешения, которым гейтируются маршруты.
type Capability uint8

const (
	// CapLogin — личность разрешена (запрос аутентифицирован).
	CapLogin Capability = 1 << iota
	// CapAdmin — личность обладает административными правами.
	CapAdmin
)

// Capabilities — иммутабельный набор способностей, вычисленный из Identity.
type Capabilities uint8

// Has сообщает, содержит ли набор способность c.
func (cs Capabilities) Has(c Capability) bool {
	return cs&Capabilities(c) != 0
}

// CapabilitiesOf вычисляет набор способностей для identity.
// nil означает неаутентифицированный запрос — пустой набор.
func CapabilitiesOf(id *Identity) Capabilities {
	if id == nil {
		return 0
	}

	cs := Capabilities(CapLogin)
	if id.IsAdmin {
		cs |= Capabilities(CapAdmin)
	}

	return cs
}
