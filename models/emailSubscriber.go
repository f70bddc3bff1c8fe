package models

import "time"

type EmailSubscriber struct {
	Email_Subscriber_ID int       `json:"emailSubscriberId" db:"email_subscriber_id" goqu:"skipinsert"`
	Email               string    `json:"email" db:"email"`
	Subscriber_Name     string    `json:"subscriberName" db:"subscriber_name"`
	Is_Active           bool      `json:"isActive" db:"is_active"`
	Unsubscribe_Token   string    `json:"-" db:"unsubscribe_token"`
	Datetime_Subscribed time.Time `json:"datetimeSubscribed" db:"datetime_subscribed" goqu:"skipinsert"`
	Datetime_Update     time.Time `json:"datetimeUpdate" db:"datetime_update" goqu:"skipinsert"`
}

type EmailSubscriberCreate struct {
	Email           string `json:"email" binding:"required,email"`
	Subscriber_Name string `json:"subscriberName"`
}
