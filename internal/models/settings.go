package models

// Known keys of the settings collection.
const (
	SettingDailyUserAdLimit = "dailyUserAdLimit"
)

// SettingEntry is one document of the settings collection.
type SettingEntry struct {
	Key    string      `bson:"key" json:"key"`
	Value  interface{} `bson:"value" json:"value"`
	Public bool        `bson:"public" json:"public"`
}
