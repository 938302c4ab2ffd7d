package model

// IDCounter holds the last number reserved for one formatted-identifier kind.
type IDCounter struct {
	Kind  string `gorm:"size:16;primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}

func (IDCounter) TableName() string { return "id_counters" }
