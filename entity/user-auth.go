package entity

type UserAuth struct {
	Username string `json:"username" bson:"username"`
	Key      string `json:"key" bson:"key"`
}
