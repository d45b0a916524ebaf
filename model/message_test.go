package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessage_TableName(t *testing.T) {
	msg := Message{}
	assert.Equal(t, "board_message", msg.TableName())
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("hello world", 100, 200)

	assert.Equal(t, int64(0), msg.ID)
	assert.NotEmpty(t, msg.UUID)
	assert.Equal(t, "hello world", msg.Text)
	assert.Equal(t, int64(100), msg.Start)
	assert.Equal(t, int64(200), msg.End)
	assert.WithinDuration(t, time.Now(), msg.CreatedAt, time.Second)
}

func TestNewMessage_UniqueUUIDs(t *testing.T) {
	a := NewMessage("a", 0, 1)
	b := NewMessage("b", 0, 1)
	assert.NotEqual(t, a.UUID, b.UUID)
}

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		wantErr bool
	}{
		{
			name:    "valid message",
			msg:     NewMessage("hello", 100, 200),
			wantErr: false,
		},
		{
			name:    "empty text",
			msg:     NewMessage("", 100, 200),
			wantErr: true,
		},
		{
			name:    "missing uuid",
			msg:     Message{Text: "hello", Start: 100, End: 200},
			wantErr: true,
		},
		{
			name:    "start equals end",
			msg:     NewMessage("hello", 100, 100),
			wantErr: true,
		},
		{
			name:    "start after end",
			msg:     NewMessage("hello", 200, 100),
			wantErr: true,
		},
		{
			name:    "start at zero is allowed",
			msg:     NewMessage("hello", 0, 100),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMessage_ActiveAt(t *testing.T) {
	msg := NewMessage("hello", 100, 200)

	tests := []struct {
		name string
		now  int64
		want bool
	}{
		{"before window", 99, false},
		{"at start", 100, true},
		{"inside window", 150, true},
		{"one before end", 199, true},
		{"at end is exclusive", 200, false},
		{"after window", 201, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, msg.ActiveAt(time.Unix(tt.now, 0)))
		})
	}
}

func TestMessage_Expired(t *testing.T) {
	msg := NewMessage("hello", 100, 200)

	assert.False(t, msg.Expired(time.Unix(150, 0)))
	assert.True(t, msg.Expired(time.Unix(200, 0)))
	assert.True(t, msg.Expired(time.Unix(500, 0)))
}

func TestMessage_Window(t *testing.T) {
	msg := NewMessage("hello", 100, 160)
	assert.Equal(t, time.Minute, msg.Window())
}
