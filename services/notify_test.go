package services

import (
	"testing"
	"time"

	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailNotifier(t *testing.T) {
	db := testDB(t)
	user := CreateTestUser(t, db, "Zoya")
	order := CreateTestOrder(t, db, &user.ID, models.OrderStatusOutForDelivery, 350)

	sent := make(chan string, 1)
	n := NewMailNotifier(db, utils.MailConfig{Host: "smtp.example.com", Port: 587, From: "orders@example.com"})
	n.send = func(cfg utils.MailConfig, to, subject, body string) error {
		assert.Contains(t, subject, "out for delivery")
		assert.Contains(t, body, "350.00")
		sent <- to
		return nil
	}

	n.OrderStatusChanged(order)
	select {
	case to := <-sent:
		assert.Equal(t, user.Email, to)
	case <-time.After(2 * time.Second):
		t.Fatal("status mail was not sent")
	}
}

func TestMailNotifier_SkipsGuestsAndDisabledSMTP(t *testing.T) {
	db := testDB(t)
	user := CreateTestUser(t, db, "Yash")
	guestOrder := CreateTestOrder(t, db, nil, models.OrderStatusAccepted, 100)
	userOrder := CreateTestOrder(t, db, &user.ID, models.OrderStatusAccepted, 100)

	called := false
	send := func(utils.MailConfig, string, string, string) error {
		called = true
		return nil
	}

	enabled := NewMailNotifier(db, utils.MailConfig{Host: "smtp.example.com"})
	enabled.send = send
	enabled.OrderStatusChanged(guestOrder)

	disabled := NewMailNotifier(db, utils.MailConfig{})
	disabled.send = send
	disabled.OrderStatusChanged(userOrder)

	require.False(t, called)
}
