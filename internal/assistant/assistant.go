// Package assistant answers delinquency questions with a Gemini model, using
// the full contract list as context.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/sgemaster/sge-backend/internal/model"
)

var ErrEmptyPrompt = errors.New("prompt is empty")

const (
	contextPrefix = "CONTEXTO DE CONTRATOS ACTUALES (JSON):\n"

	systemInstruction = "Eres un asistente experto en gestión de morosidad para el sistema SGE Master de estacionamientos. " +
		"Tienes acceso a la lista completa de contratos. Ayuda al usuario a analizar deudas, encontrar patrones de morosidad, " +
		"redactar correos de cobranza profesionales en español de Chile y sugerir planes de pago. Sé conciso y profesional."

	FallbackReply = "Lo siento, no pude procesar tu solicitud."
	ErrorReply    = "Hubo un error al conectar con el asistente de IA. Inténtalo de nuevo."
	Greeting      = "Hola, soy el asistente inteligente de SGE Master. Puedo analizar los datos de morosidad, " +
		"sugerir planes de pago o redactar correos de cobranza personalizados. ¿En qué puedo ayudarte hoy?"

	temperature float32 = 0.7
)

// Generator is the slice of the genai models API the assistant needs.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Assistant struct {
	gen   Generator
	model string
}

func New(gen Generator, model string) *Assistant {
	return &Assistant{gen: gen, model: model}
}

// NewGemini connects to the Gemini API.
func NewGemini(ctx context.Context, apiKey, model string) (*Assistant, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return New(client.Models, model), nil
}

// Reply sends the contracts, the transcript so far and the new prompt, and
// returns the model's answer as an ai message.
func (a *Assistant) Reply(ctx context.Context, contracts []model.Contract, history []model.ChatMessage, prompt string) (model.ChatMessage, error) {
	if strings.TrimSpace(prompt) == "" {
		return model.ChatMessage{}, ErrEmptyPrompt
	}

	contents, err := BuildContents(contracts, history, prompt)
	if err != nil {
		return model.ChatMessage{}, err
	}

	resp, err := a.gen.GenerateContent(ctx, a.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(temperature),
	})
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := ""
	if resp != nil {
		text = resp.Text()
	}
	if strings.TrimSpace(text) == "" {
		text = FallbackReply
	}
	return model.ChatMessage{Role: model.ChatRoleAI, Text: text}, nil
}

// BuildContents lays out the conversation: contract context first, then the
// transcript, then the new prompt.
func BuildContents(contracts []model.Contract, history []model.ChatMessage, prompt string) ([]*genai.Content, error) {
	if contracts == nil {
		contracts = []model.Contract{}
	}
	payload, err := json.Marshal(contracts)
	if err != nil {
		return nil, fmt.Errorf("encode contract context: %w", err)
	}

	contents := make([]*genai.Content, 0, len(history)+2)
	contents = append(contents, genai.NewContentFromText(contextPrefix+string(payload), genai.RoleUser))
	for _, msg := range history {
		role := genai.Role(genai.RoleUser)
		if msg.Role == model.ChatRoleAI {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))
	return contents, nil
}
