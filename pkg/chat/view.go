package chat

import (
	"github.com/aretw0/kotoba/pkg/domain"
)

// Fixed user-facing texts.
const (
	PendingMessage           = "翻译中，请稍候…"
	FailureMessage           = "翻译失败，请稍后重试。"
	SpeechUnavailableMessage = "当前环境不支持语音朗读功能。"
	CopyFailedMessage        = "复制失败，请手动选择文本复制。"
	SpeakLabel               = "🔊 朗读"
	CopyLabel                = "📋 复制"
	CopiedLabel              = "✅ 已复制"
	AnalysisTitle            = "句子拆解 · 词汇 & 语法"
)

// View is the display surface driven by a Conversation.
// Calls are serialized by the Conversation; implementations need no locking
// of their own for these methods.
type View interface {
	// AppendUser shows the user's sentence for exchange id.
	AppendUser(id, text string)
	// AppendPlaceholder shows the in-progress bot turn for exchange id.
	AppendPlaceholder(id, text string)
	// Resolve replaces the placeholder id with the translation, its tools and
	// its breakdown.
	Resolve(id string, turn BotTurn)
	// Fail replaces the placeholder id with a failure message.
	Fail(id, message string)
	// ScrollToBottom brings the newest content into view.
	ScrollToBottom()
}

// BotTurn is everything a view renders for a resolved exchange.
type BotTurn struct {
	ID        string
	Japanese  string
	Speak     *SpeakButton
	Copy      *CopyButton
	Breakdown Breakdown
}

// Breakdown is the word-by-word analysis scoped to one exchange.
type Breakdown struct {
	Title          string
	Words          []domain.WordGloss
	GrammarSummary string
}

// NewBreakdown builds the analysis block for a result.
func NewBreakdown(result *domain.TranslationResult) Breakdown {
	words := make([]domain.WordGloss, len(result.Words))
	copy(words, result.Words)
	return Breakdown{
		Title:          AnalysisTitle,
		Words:          words,
		GrammarSummary: result.GrammarSummary,
	}
}
