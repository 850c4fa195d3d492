// Package notify delivers zakat reminders.
package notify

import (
	"encoding/json"
	"time"

	"github.com/carson-networks/finance-tracker/internal/zakat"
)

const RoutingKeyObligated = "zakat.obligated"

// ReminderMessage is the payload published for an obligated owner.
type ReminderMessage struct {
	Owner            string    `json:"owner"`
	State            string    `json:"state"`
	Wealth           string    `json:"wealth"`
	Nisab            string    `json:"nisab"`
	Due              string    `json:"due"`
	GoldPricePerGram string    `json:"goldPricePerGram"`
	HaulStart        string    `json:"haulStart"`
	SentAt           time.Time `json:"sentAt"`
}

func NewReminderMessage(a zakat.Assessment, sentAt time.Time) ReminderMessage {
	return ReminderMessage{
		Owner:            string(a.Owner),
		State:            string(a.State),
		Wealth:           a.Wealth.StringFixed(2),
		Nisab:            a.Nisab.StringFixed(2),
		Due:              a.Due.StringFixed(2),
		GoldPricePerGram: a.GoldPricePerGram.StringFixed(2),
		HaulStart:        a.HaulStart.Format(time.DateOnly),
		SentAt:           sentAt.UTC(),
	}
}

func (m ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
