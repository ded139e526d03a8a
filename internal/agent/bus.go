package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/lockin/internal/blocking"
	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

// MessageType names a request on the bus.
type MessageType string

// Message types understood by the bus.
const (
	TypeGetPreferences    MessageType = "GET_PREFERENCES"
	TypeUpdatePreferences MessageType = "UPDATE_PREFERENCES"
	TypeCheckURL          MessageType = "CHECK_URL"
	TypeClassifyContent   MessageType = "CLASSIFY_CONTENT"
)

// Response messages returned to callers that cannot classify.
const (
	errNotAuthenticated     = "Not authenticated"
	errClassificationFailed = "Classification failed"
)

// ErrNotLinked is returned when classification is requested before a sync token is set.
var ErrNotLinked = fmt.Errorf("agent has no sync token: %w", common.ErrUnauthenticated)

// Message is a typed request sent to the bus.
type Message interface {
	Type() MessageType
}

// GetPreferences asks for the current preferences. Response: PreferencesResponse.
type GetPreferences struct{}

// UpdatePreferences replaces the preferences. Response: UpdateResponse.
type UpdatePreferences struct {
	Preferences model.FocusPreferences `json:"preferences"`
}

// CheckURL asks whether a URL is blocked. Response: CheckURLResponse.
type CheckURL struct {
	URL string `json:"url"`
}

// ClassifyContent asks for a classification. Response: ClassifyResponse.
type ClassifyContent struct {
	Data model.ContentItem `json:"data"`
}

// Type implements Message.
func (GetPreferences) Type() MessageType { return TypeGetPreferences }

// Type implements Message.
func (UpdatePreferences) Type() MessageType { return TypeUpdatePreferences }

// Type implements Message.
func (CheckURL) Type() MessageType { return TypeCheckURL }

// Type implements Message.
func (ClassifyContent) Type() MessageType { return TypeClassifyContent }

// PreferencesResponse answers GetPreferences.
type PreferencesResponse struct {
	model.FocusPreferences
}

// UpdateResponse answers UpdatePreferences.
type UpdateResponse struct {
	Success bool `json:"success"`
}

// CheckURLResponse answers CheckURL.
type CheckURLResponse struct {
	ShouldBlock bool `json:"shouldBlock"`
}

// ClassifyResponse answers ClassifyContent with either a result or an error message.
type ClassifyResponse struct {
	*model.ClassifyOutcome
	Error string `json:"error,omitempty"`
}

// Classifier classifies content with a sync token.
type Classifier interface {
	ClassifyContent(ctx context.Context, item model.ContentItem, syncToken string) (*model.ClassifyOutcome, error)
}

// Bus dispatches typed messages against the agent state.
type Bus struct {
	state      *State
	classifier Classifier
	logger     *slog.Logger
}

// NewBus creates a bus.
func NewBus(state *State, classifier Classifier, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{state: state, classifier: classifier, logger: logger}
}

// Dispatch handles msg and returns its typed response. Only failures to
// persist state are returned as errors; classification problems are
// reported inside ClassifyResponse.
func (b *Bus) Dispatch(ctx context.Context, msg Message) (any, error) {
	switch m := msg.(type) {
	case GetPreferences:
		prefs, err := b.state.Preferences(ctx)
		if err != nil {
			return nil, err
		}
		return PreferencesResponse{FocusPreferences: prefs}, nil

	case UpdatePreferences:
		if err := b.state.ReplacePreferences(ctx, m.Preferences); err != nil {
			return nil, fmt.Errorf("failed to update preferences: %w", err)
		}
		return UpdateResponse{Success: true}, nil

	case CheckURL:
		prefs, err := b.state.Preferences(ctx)
		if err != nil {
			return CheckURLResponse{}, nil
		}
		return CheckURLResponse{ShouldBlock: blocking.ShouldBlock(m.URL, prefs)}, nil

	case ClassifyContent:
		outcome, err := b.Classify(ctx, m.Data)
		switch {
		case errors.Is(err, ErrNotLinked):
			return ClassifyResponse{Error: errNotAuthenticated}, nil
		case err != nil:
			b.logger.Debug("Classification request failed", "url", m.Data.URL, "error", err)
			return ClassifyResponse{Error: errClassificationFailed}, nil
		}
		return ClassifyResponse{ClassifyOutcome: outcome}, nil

	default:
		return nil, fmt.Errorf("%w: unknown message %T", common.ErrMalformedInput, msg)
	}
}

// Classify sends item to the server using the linked sync token.
func (b *Bus) Classify(ctx context.Context, item model.ContentItem) (*model.ClassifyOutcome, error) {
	token := b.state.SyncToken()
	if token == "" {
		return nil, ErrNotLinked
	}
	return b.classifier.ClassifyContent(ctx, item.Truncated(), token)
}

// DecodeMessage parses a {"type": ...} envelope into its typed message.
func DecodeMessage(data []byte) (Message, error) {
	var envelope struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMalformedInput, err)
	}

	switch envelope.Type {
	case TypeGetPreferences:
		return GetPreferences{}, nil
	case TypeUpdatePreferences:
		return decodeAs[UpdatePreferences](data)
	case TypeCheckURL:
		return decodeAs[CheckURL](data)
	case TypeClassifyContent:
		return decodeAs[ClassifyContent](data)
	default:
		return nil, fmt.Errorf("%w: unknown message type %q", common.ErrMalformedInput, envelope.Type)
	}
}

func decodeAs[T Message](data []byte) (Message, error) {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMalformedInput, err)
	}
	return msg, nil
}
