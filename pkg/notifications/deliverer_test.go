package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/stockalert/pkg/logger"
)

func TestMultiChannel_Deliver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		results []error
		wantErr bool
	}{
		{name: "all succeed", results: []error{nil, nil, nil}},
		{name: "one fails", results: []error{errors.New("down"), nil, nil}},
		{name: "all fail", results: []error{errors.New("a"), errors.New("b")}, wantErr: true},
		{name: "no channels", results: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mocks := make([]*MockChannel, len(tt.results))
			channels := make([]Channel, len(tt.results))
			for i, res := range tt.results {
				mocks[i] = &MockChannel{}
				mocks[i].On("Deliver", mock.Anything, mock.AnythingOfType("notifications.Package")).Return(res).Once()
				channels[i] = mocks[i]
			}

			m := NewMultiChannel(channels, WithMultiChannelLogger(logger.Discard()))
			err := m.Deliver(context.Background(), Package{Title: "t"})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			for _, mc := range mocks {
				mc.AssertExpectations(t)
			}
		})
	}
}

func TestNoOpChannel(t *testing.T) {
	t.Parallel()
	assert.NoError(t, NoOpChannel{}.Deliver(context.Background(), Package{}))
}
