package entities

type CustomerInfo struct {
	Email     string `bson:"email"`
	FirstName string `bson:"firstName"`
	LastName  string `bson:"lastName"`
	ClientIp  string `bson:"clientIp"`
}
