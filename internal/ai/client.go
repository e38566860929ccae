package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

const (
	ActionCreateMemo    = "create_memo"
	ActionListMemo      = "list_memo"
	ActionShowMemo      = "show_memo"
	ActionUpdateMemo    = "update_memo"
	ActionDeleteMemo    = "delete_memo"
	ActionDeleteAllMemo = "delete_all_memo"
	ActionUnknown       = "unknown"
)

// Intent is a memo operation extracted from a free-form message.
type Intent struct {
	Action string `json:"action"`
	// Parameters may hold "content", "id" (memo id) and "row" (1-based list row).
	Parameters        map[string]string `json:"parameters"`
	Confidence        float64           `json:"confidence"`
	NeedsConfirmation bool              `json:"needs_confirmation"`
	AIMessage         string            `json:"ai_message"`
	RawResponse       string            `json:"-"`
}

const systemPromptTemplate = `あなたはメモアプリのアシスタントです。ユーザーの自然な文章を、メモ操作の意図(JSON)に変換してください。

現在時刻: %s

使用できる action:
- create_memo: メモを作成する (parameters.content にメモ本文。1行目がタイトル)
- list_memo: メモ一覧を表示する
- show_memo: メモを1件表示する (parameters.id または parameters.row)
- update_memo: メモを書き換える (parameters.id と parameters.content)
- delete_memo: メモを削除する (parameters.row は一覧の行番号、parameters.id はメモ番号)
- delete_all_memo: すべてのメモを削除する
- unknown: 判別できない

ルール:
1. delete_memo と delete_all_memo は必ず needs_confirmation = true にする。
2. content はユーザーが書いた文章をそのまま使い、要約しない。
3. 雑談や判別できない場合は action = unknown とし、ai_message に短い返答を入れる。`

func getSystemPrompt() string {
	return fmt.Sprintf(systemPromptTemplate, time.Now().Format("2006-01-02 15:04 (Monday)"))
}

// JSON Schema for structured output
var intentSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"action": {
			"type": "string",
			"enum": ["create_memo", "list_memo", "show_memo", "update_memo", "delete_memo", "delete_all_memo", "unknown"],
			"description": "The memo operation to perform"
		},
		"parameters": {
			"type": "object",
			"additionalProperties": {
				"type": "string"
			},
			"description": "content, id or row depending on the action"
		},
		"confidence": {
			"type": "number",
			"minimum": 0,
			"maximum": 1,
			"description": "Confidence score between 0 and 1"
		},
		"needs_confirmation": {
			"type": "boolean",
			"description": "Whether this action requires user confirmation before execution"
		},
		"ai_message": {
			"type": "string",
			"description": "Short message for the user"
		}
	},
	"required": ["action", "parameters", "confidence", "needs_confirmation", "ai_message"],
	"additionalProperties": false
}`)

func (c *Client) ParseIntent(ctx context.Context, userMessage string) (*Intent, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: getSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userMessage,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "intent",
				Schema: intentSchema,
				Strict: true,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from AI")
	}

	return parseIntent(resp.Choices[0].Message.Content)
}

func parseIntent(content string) (*Intent, error) {
	intent := &Intent{RawResponse: content}
	if err := json.Unmarshal([]byte(content), intent); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}
	if intent.Parameters == nil {
		intent.Parameters = map[string]string{}
	}
	// Deletions always ask first, whatever the model said.
	if intent.Action == ActionDeleteMemo || intent.Action == ActionDeleteAllMemo {
		intent.NeedsConfirmation = true
	}
	return intent, nil
}
