// File: services/assistant/service.go
package assistant

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxToolRounds bounds per-request latency and cost against a provider that
// could otherwise loop indefinitely on tool calls.
const maxToolRounds = 3

const systemPrompt = `You are the Amanthos Living booking assistant. You help guests find and book serviced apartments in Switzerland.

PROPERTIES:
1. Amanthos Living Zurich Airport (GBAL) — Oberhauserstrasse 30, 8152 Glattbrugg. Near Zurich Airport (1km) and city center (9.4km). Amenities: Free Wi-Fi, fully equipped kitchen, air conditioning, Smart TV, desk workspace, digital check-in, private parking (CHF 10/day), lift access.
2. Amanthos Living Solothurn (GNBE) — Bettlachstrasse 20, 2540 Grenchen. 23 fully furnished units. Amenities: Free Wi-Fi, fully equipped kitchen, Smart TV, on-site parking, digital check-in, lift access.
3. Amanthos Living Nyon (NYAL) — Rue du Château 11, 1266 Duillier. 12 rooms/apartments overlooking Lake Geneva with Alps views. Amenities: Free Wi-Fi, kitchenette, Smart TV, parking, digital check-in.

LONG-STAY DISCOUNTS:
- 7+ nights: 25% off
- 14+ nights: 30% off
- 30+ nights: 35% off

RULES:
- Always use the get_offers tool to check real-time prices. NEVER make up or estimate prices.
- Show only Refundable and Non-Refundable rates. Never mention OTA or B2B rates.
- Respond in the same language the guest uses (German or English).
- Be warm, professional, and helpful.
- If a guest wants to book, collect: property, dates, number of guests, first name, last name, email.
- Contact: info@amanthosliving.com / +41 41 562 97 01
- Currency is always CHF.`

// Service drives a multi-turn exchange with the AI provider, dispatching its
// tool calls to the booking primitives.
type Service interface {
	Chat(ctx context.Context, sessionID, message string) (reply string, sid string, err error)
}

type DefaultAssistantService struct {
	Provider Provider
	Sessions *SessionStore
	Tools    *ToolRunner
	Logger   *zap.Logger
}

func NewAssistantService(provider Provider, sessions *SessionStore, tools *ToolRunner, logger *zap.Logger) *DefaultAssistantService {
	return &DefaultAssistantService{
		Provider: provider,
		Sessions: sessions,
		Tools:    tools,
		Logger:   logger,
	}
}

// Chat runs one guest turn: append the message, let the provider use tools up
// to maxToolRounds times, then return the concatenated text reply.
func (s *DefaultAssistantService) Chat(ctx context.Context, sessionID, message string) (string, string, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	s.Sessions.Touch(sessionID)
	s.Sessions.Append(sessionID, Message{Role: "user", Content: message})

	resp, err := s.Provider.Messages(ctx, systemPrompt, s.Sessions.History(sessionID), ChatTools)
	if err != nil {
		return "", sessionID, err
	}

	for rounds := 0; resp.StopReason == StopReasonToolUse && rounds < maxToolRounds; rounds++ {
		s.Sessions.Append(sessionID, Message{Role: "assistant", Content: resp.Content})

		results := make([]ContentBlock, 0, len(resp.Content))
		for _, block := range resp.Content {
			if block.Type != "tool_use" {
				continue
			}
			s.Logger.Info("Executing chat tool", zap.String("tool", block.Name), zap.String("session", sessionID))
			results = append(results, ContentBlock{
				Type:      "tool_result",
				ToolUseID: block.ID,
				Content:   s.Tools.Run(ctx, block.Name, block.Input),
			})
		}
		s.Sessions.Append(sessionID, Message{Role: "user", Content: results})

		resp, err = s.Provider.Messages(ctx, systemPrompt, s.Sessions.History(sessionID), ChatTools)
		if err != nil {
			return "", sessionID, err
		}
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	reply := sb.String()

	s.Sessions.Append(sessionID, Message{Role: "assistant", Content: reply})
	return reply, sessionID, nil
}
