package model

import "time"

// VitalsEntry は1ユーザー・1日分のバイタル記録。EntryDate は日付のみ有効
// （時刻部分は常に 00:00:00 UTC）。同じ日の再送信は上書きになる。
type VitalsEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	EntryDate   time.Time `json:"entry_date"`
	Temperature *float64  `json:"temperature,omitempty"` // 摂氏ではなく華氏（°F）
	Pulse       *int      `json:"pulse,omitempty"`       // bpm
	WeightKg    *float64  `json:"weight_kg,omitempty"`
	Mood        *int      `json:"mood,omitempty"` // 1..5
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VitalsRange carries the date window for listing vitals entries.
type VitalsRange struct {
	From time.Time
	To   time.Time
}
