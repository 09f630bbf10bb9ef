package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/models"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/services"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestAuditEventPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockListReader(ctrl)
	mockWriter := services.NewMockListWriter(ctrl)
	mockEvents := services.NewMockKafkaWriter(ctrl)
	svc := services.NewShoppinglistService(mockReader, mockWriter, mockEvents)

	mockReader.EXPECT().GetByTitle(gomock.Any(), int64(1), "groceries").Return(nil, nil)
	mockWriter.EXPECT().
		Save(gomock.Any(), int64(1), "groceries").
		Return(&models.ShoppinglistDB{ID: 3, UserID: 1, Title: "groceries"}, nil)

	var captured kafka.Message
	mockEvents.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
			captured = msgs[0]
			return nil
		})

	_, err := svc.Create(context.Background(), 1, "groceries")
	assert.NoError(t, err)

	var evt struct {
		EventID  string `json:"event_id"`
		Type     string `json:"type"`
		UserID   int64  `json:"user_id"`
		EntityID int64  `json:"entity_id"`
	}
	assert.NoError(t, json.Unmarshal(captured.Value, &evt))
	assert.Equal(t, "list.created", evt.Type)
	assert.Equal(t, int64(1), evt.UserID)
	assert.Equal(t, int64(3), evt.EntityID)
	assert.Equal(t, evt.EventID, string(captured.Key))
	assert.NotEmpty(t, evt.EventID)
}
