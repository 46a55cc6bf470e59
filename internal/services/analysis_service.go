package services

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hairvana/hairvana-backend/internal/config"
	"github.com/hairvana/hairvana-backend/internal/dto"
	"github.com/hairvana/hairvana-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// =============================================================================
// Chat completion types (internal)
// =============================================================================

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content interface{} `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// =============================================================================
// Domain tables
// =============================================================================

var faceShapes = []string{"oval", "round", "square", "heart", "diamond", "oblong"}

var faceShapeProfiles = map[string]struct {
	description string
	cuts        []string
}{
	"oval":    {"Balanced proportions that suit nearly any style.", []string{"Textured Crop", "Long Layers", "Slick Back", "Curtain Bangs"}},
	"round":   {"Soft, full cheeks best balanced with height and angles.", []string{"Pompadour", "High Fade", "Long Bob", "Side Part"}},
	"square":  {"Strong jawline that pairs well with softer, layered cuts.", []string{"Soft Layers", "Buzz Cut", "Messy Fringe", "Shoulder Waves"}},
	"heart":   {"Wider forehead tapering to the chin; volume belongs low.", []string{"Chin-Length Bob", "Side-Swept Bangs", "Medium Shag", "Low Fade"}},
	"diamond": {"High cheekbones with a narrow forehead and chin.", []string{"Textured Fringe", "Deep Side Part", "Layered Lob", "Crew Cut"}},
	"oblong":  {"Longer than wide; width at the sides shortens the look.", []string{"Blunt Bob", "Full Fringe", "Side Waves", "Classic Taper"}},
}

var hairTypes = []string{"straight", "wavy", "curly", "coily"}

var hairTypeProfiles = map[string]struct {
	description string
	tips        []string
}{
	"straight": {"Type 1 hair that reflects shine but flattens easily.", []string{"Wash with lightweight shampoo", "Avoid heavy oils near roots", "Dry shampoo adds volume"}},
	"wavy":     {"Type 2 S-pattern hair, easily weighed down.", []string{"Scrunch with a microfiber towel", "Use a light curl cream", "Skip brushing when dry"}},
	"curly":    {"Type 3 springy curls that crave moisture.", []string{"Deep condition weekly", "Detangle with fingers when wet", "Sleep on a silk pillowcase"}},
	"coily":    {"Type 4 tight coils, the most fragile pattern.", []string{"Seal ends with butter or oil", "Wash in sections", "Protective styles reduce breakage"}},
}

const faceShapeSystemPrompt = `You are a professional hairstylist assistant. Look at the person in this photo and classify their face shape.
Choose exactly one of: oval, round, square, heart, diamond, oblong.
Return your analysis as a JSON object with these exact fields:
{"face_shape":"...", "confidence":1-100, "description":"one sentence about their features"}
Return ONLY the JSON object, no extra text.`

const hairTypeSystemPrompt = `You are a professional trichologist assistant. Look at the person in this photo and classify their hair type.
Choose exactly one of: straight, wavy, curly, coily.
Return your analysis as a JSON object with these exact fields:
{"hair_type":"...", "description":"one sentence about their hair texture"}
Return ONLY the JSON object, no extra text.`

type faceShapeAnalysis struct {
	FaceShape   string `json:"face_shape"`
	Confidence  int    `json:"confidence"`
	Description string `json:"description"`
}

type hairTypeAnalysis struct {
	HairType    string `json:"hair_type"`
	Description string `json:"description"`
}

// =============================================================================
// AnalysisService
// =============================================================================

// AnalysisService runs the prompt-engineered analysis tools (face shape, hair
// type, haircut quiz) against a hosted LLM, with a deterministic fallback when
// no provider is configured or the provider fails.
type AnalysisService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAnalysisService(db *gorm.DB, cfg *config.Config) *AnalysisService {
	return &AnalysisService{db: db, cfg: cfg}
}

func (s *AnalysisService) AnalyzeFaceShape(userID uuid.UUID, imageData, imageURL string) (*dto.FaceShapeResponse, error) {
	var analysis faceShapeAnalysis
	content, err := s.callProvider(faceShapeSystemPrompt, "Please identify my face shape from this photo.", imageData, imageURL)
	if err == nil {
		err = json.Unmarshal([]byte(ExtractJSON(content)), &analysis)
	}
	if err != nil {
		slog.Warn("face shape analysis fell back to deterministic", "user_id", userID, "error", err)
		analysis = deterministicFaceShape(userID, imageData+imageURL)
	}

	analysis.FaceShape = normalizeChoice(analysis.FaceShape, faceShapes)
	if analysis.FaceShape == "" {
		analysis.FaceShape = "oval"
	}
	if analysis.Confidence < 1 || analysis.Confidence > 100 {
		analysis.Confidence = 75
	}

	profile := faceShapeProfiles[analysis.FaceShape]
	if analysis.Description == "" {
		analysis.Description = profile.description
	}

	resp := &dto.FaceShapeResponse{
		Success:         true,
		FaceShape:       analysis.FaceShape,
		Confidence:      analysis.Confidence,
		Description:     analysis.Description,
		RecommendedCuts: profile.cuts,
	}
	s.saveResult(userID, models.AnalysisKindFaceShape, resp)
	return resp, nil
}

func (s *AnalysisService) AnalyzeHairType(userID uuid.UUID, imageData, imageURL string) (*dto.HairTypeResponse, error) {
	var analysis hairTypeAnalysis
	content, err := s.callProvider(hairTypeSystemPrompt, "Please identify my hair type from this photo.", imageData, imageURL)
	if err == nil {
		err = json.Unmarshal([]byte(ExtractJSON(content)), &analysis)
	}
	if err != nil {
		slog.Warn("hair type analysis fell back to deterministic", "user_id", userID, "error", err)
		analysis = deterministicHairType(userID, imageData+imageURL)
	}

	analysis.HairType = normalizeChoice(analysis.HairType, hairTypes)
	if analysis.HairType == "" {
		analysis.HairType = "wavy"
	}

	profile := hairTypeProfiles[analysis.HairType]
	if analysis.Description == "" {
		analysis.Description = profile.description
	}

	resp := &dto.HairTypeResponse{
		Success:     true,
		HairType:    analysis.HairType,
		Description: analysis.Description,
		CareTips:    profile.tips,
	}
	s.saveResult(userID, models.AnalysisKindHairType, resp)
	return resp, nil
}

// Quiz scoring: each answer votes for one or more styles.
var quizWeights = map[string]map[string][]string{
	"maintenance": {
		"low":  {"Buzz Cut", "Classic Taper"},
		"mid":  {"Textured Crop", "Side Part"},
		"high": {"Pompadour", "Long Layers"},
	},
	"length": {
		"short":  {"Buzz Cut", "Textured Crop", "Crew Cut"},
		"medium": {"Side Part", "Medium Shag", "Textured Fringe"},
		"long":   {"Long Layers", "Shoulder Waves", "Slick Back"},
	},
	"vibe": {
		"professional": {"Classic Taper", "Side Part", "Slick Back"},
		"casual":       {"Textured Crop", "Messy Fringe", "Medium Shag"},
		"bold":         {"Pompadour", "High Fade", "Buzz Cut"},
	},
}

func (s *AnalysisService) RunHaircutQuiz(userID uuid.UUID, answers map[string]string) (*dto.QuizResponse, error) {
	recommendation := ScoreQuiz(answers)

	rationale := fmt.Sprintf("A %s works with your answers: it matches the upkeep and length you asked for.", strings.ToLower(recommendation))
	if content, err := s.callProvider(
		"You are a hairstylist. In two sentences, explain why the given haircut suits someone with the given preferences. Respond with plain text only.",
		fmt.Sprintf("Haircut: %s. Preferences: %v.", recommendation, answers), "", ""); err == nil && strings.TrimSpace(content) != "" {
		rationale = strings.TrimSpace(content)
	}

	resp := &dto.QuizResponse{
		Success:        true,
		Recommendation: recommendation,
		Rationale:      rationale,
	}
	s.saveResult(userID, models.AnalysisKindHaircutQuiz, resp)
	return resp, nil
}

// ScoreQuiz tallies style votes across answers; ties break alphabetically so
// the result is stable for a given answer set.
func ScoreQuiz(answers map[string]string) string {
	votes := make(map[string]int)
	for question, answer := range answers {
		options, ok := quizWeights[question]
		if !ok {
			continue
		}
		for _, style := range options[strings.ToLower(strings.TrimSpace(answer))] {
			votes[style]++
		}
	}

	styles := make([]string, 0, len(votes))
	for style := range votes {
		styles = append(styles, style)
	}
	sort.Strings(styles)

	best := "Textured Crop"
	bestVotes := 0
	for _, style := range styles {
		if votes[style] > bestVotes {
			best = style
			bestVotes = votes[style]
		}
	}
	return best
}

func (s *AnalysisService) History(userID uuid.UUID, kind string) ([]models.AnalysisResult, error) {
	var results []models.AnalysisResult
	q := s.db.Where("user_id = ?", userID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	err := q.Order("created_at DESC").Limit(50).Find(&results).Error
	return results, err
}

func (s *AnalysisService) saveResult(userID uuid.UUID, kind string, payload interface{}) {
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	result := models.AnalysisResult{
		ID:     uuid.New(),
		UserID: userID,
		Kind:   kind,
		Result: datatypes.JSON(b),
	}
	if err := s.db.Create(&result).Error; err != nil {
		slog.Error("failed to store analysis result", "user_id", userID, "kind", kind, "error", err)
	}
}

// =============================================================================
// Provider plumbing
// =============================================================================

func (s *AnalysisService) callProvider(systemPrompt, userText, imageData, imageURL string) (string, error) {
	if s.cfg.GLMAPIKey != "" {
		content, err := s.callChatAPI(s.cfg.GLMAPIURL, s.cfg.GLMAPIKey, s.cfg.GLMVisionModel, systemPrompt, userText, imageData, imageURL, true)
		if err == nil {
			return content, nil
		}
		slog.Warn("GLM call failed", "error", err)
	}
	if s.cfg.DeepSeekAPIKey != "" {
		content, err := s.callChatAPI(s.cfg.DeepSeekAPIURL, s.cfg.DeepSeekAPIKey, s.cfg.DeepSeekModel, systemPrompt, userText, imageData, imageURL, false)
		if err == nil {
			return content, nil
		}
		slog.Warn("DeepSeek call failed", "error", err)
	}
	return "", errors.New("no AI provider available")
}

func (s *AnalysisService) callChatAPI(apiURL, apiKey, model, systemPrompt, userText, imageData, imageURL string, supportsVision bool) (string, error) {
	var messages []chatMessage
	if supportsVision && (imageData != "" || imageURL != "") {
		imgURL := imageURL
		if imageData != "" {
			imgURL = "data:image/jpeg;base64," + imageData
		}
		messages = []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []chatContentPart{
				{Type: "text", Text: userText},
				{Type: "image_url", ImageURL: &chatImageURL{URL: imgURL, Detail: "auto"}},
			}},
		}
	} else {
		messages = []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		}
	}

	payload, err := json.Marshal(chatRequest{Model: model, Messages: messages, Temperature: 0.7})
	if err != nil {
		return "", err
	}

	timeout := s.cfg.AITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	req, err := http.NewRequest(http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("AI API error: status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("no response from AI")
	}

	switch v := completion.Choices[0].Message.Content.(type) {
	case string:
		return v, nil
	default:
		contentBytes, err := json.Marshal(v)
		if err != nil {
			return "", errors.New("failed to extract content from AI response")
		}
		return string(contentBytes), nil
	}
}

// ExtractJSON strips markdown fences and pulls the outermost JSON object out
// of an LLM reply.
func ExtractJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	if json.Valid([]byte(content)) {
		return content
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}

func deterministicFaceShape(userID uuid.UUID, seed string) faceShapeAnalysis {
	hash := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(seed)) + ":" + userID.String()))
	shape := faceShapes[int(hash[0])%len(faceShapes)]
	return faceShapeAnalysis{
		FaceShape:  shape,
		Confidence: 60 + int(hash[1])%31,
	}
}

func deterministicHairType(userID uuid.UUID, seed string) hairTypeAnalysis {
	hash := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(seed)) + ":" + userID.String()))
	return hairTypeAnalysis{
		HairType: hairTypes[int(hash[0])%len(hairTypes)],
	}
}

func normalizeChoice(value string, allowed []string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if normalized == a {
			return normalized
		}
	}
	return ""
}
