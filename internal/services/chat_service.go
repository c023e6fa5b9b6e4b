// internal/services/chat_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/sirupsen/logrus"

	"github.com/Piyush5621/AnarchyBay/internal/assistant"
	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/repository"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

const chatInventoryLimit = 8

type ChatService struct {
	products  repository.ProductRepository
	generator assistant.TextGenerator
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

var chatPrompt = template.Must(template.New("chat").Parse(`
SYSTEM IDENTITY:
You are the AI Assistant for 'Anarchy Bay', a digital marketplace similar to Gumroad.
Creators buy and sell **digital assets**: source code, mini-projects, design templates and technical skills.

USER QUESTION: "{{.Message}}"

STRICT OUTPUT RULES:

1. **IF ASKING FOR PRODUCTS:**
   You MUST return the data as a MARKDOWN TABLE.

   | Digital Asset | Price | Category |
   | :--- | :--- | :--- |
   | React Dashboard | 20.00 INR | Code |

   Real data to use:
{{.Inventory}}

   (If empty, say "No digital assets listed right now.")

2. **IF ASKING "HOW TO USE" or "STEPS":**
   Provide this guide:
   **How to use Anarchy Bay:**
   1. **Sign Up** as a Creator or Buyer.
   2. **List** your code, project or skill.
   3. **Buy** securely using our platform.
   4. **Instant Download** of assets after purchase.

3. **IF ASKING "WHAT IS THIS?":**
   "Anarchy Bay is a digital marketplace where developers and creators sell source code, mini-projects and skills directly to buyers. No physical shipping, just instant digital delivery."

4. **IF GREETING ("Hi", "Hello"):**
   "Welcome to Anarchy Bay! I can help you find **source code**, **projects**, or help you **start selling** digital goods."

5. **TONE:** Tech-savvy, professional, encouraging.
`))

// NewChatService accepts a nil generator; Reply then fails with ErrChatDisabled.
func NewChatService(products repository.ProductRepository, generator assistant.TextGenerator) *ChatService {
	return &ChatService{products: products, generator: generator}
}

func (s *ChatService) Enabled() bool {
	return s.generator != nil
}

func (s *ChatService) Reply(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if s.generator == nil {
		return nil, ErrChatDisabled
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, invalid("message is required")
	}

	products, _, err := s.products.List(ctx, repository.ProductFilter{}, utils.PaginationParams{
		Page:  1,
		Limit: chatInventoryLimit,
	})
	if err != nil {
		// The assistant still answers without inventory.
		logrus.WithError(err).Warn("Failed to load products for chat")
		products = nil
	}

	prompt, err := buildChatPrompt(message, products)
	if err != nil {
		return nil, err
	}

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &ChatResponse{Reply: reply}, nil
}

func buildChatPrompt(message string, products []models.Product) (string, error) {
	var buf bytes.Buffer
	err := chatPrompt.Execute(&buf, map[string]string{
		"Message":   message,
		"Inventory": inventoryTable(products),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render chat prompt: %w", err)
	}
	return buf.String(), nil
}

func inventoryTable(products []models.Product) string {
	if len(products) == 0 {
		return "   No digital products found."
	}
	rows := make([]string, 0, len(products))
	for _, p := range products {
		category := "General"
		if len(p.Categories) > 0 {
			category = p.Categories[0]
		}
		rows = append(rows, fmt.Sprintf("   | %s | %s %s | %s |", p.Name, p.Price.StringFixed(2), p.Currency, category))
	}
	return strings.Join(rows, "\n")
}
