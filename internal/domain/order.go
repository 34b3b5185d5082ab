package domain

// Order is a client booking. ID, Timestamp and Status are assigned by the
// server; client-supplied values for them are ignored.
type Order struct {
	ID        int    `json:"id" yaml:"id"`
	Service   string `json:"service" yaml:"service"`
	Date      string `json:"date" yaml:"date"`
	Time      string `json:"time" yaml:"time"`
	Name      string `json:"name" yaml:"name"`
	Phone     string `json:"phone" yaml:"phone"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Status    string `json:"status" yaml:"status"`
}

const OrderStatusNew = "New"

func (o Order) RecordID() int {
	return o.ID
}
