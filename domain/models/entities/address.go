package entities

type AddressInfo struct {
	Country    string `bson:"country"`
	City       string `bson:"city"`
	FirstLine  string `bson:"firstLine"`
	ZipCode    string `bson:"zipCode"`
	Phone      string `bson:"phone"`
	RegionCode string `bson:"regionCode"`
	Email      string `bson:"email"`
}
