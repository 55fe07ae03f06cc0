package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/kotoba/pkg/domain"
	"github.com/aretw0/kotoba/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConversation(t *testing.T, tr ports.Translator, opts ...Option) (*Conversation, *recordingView) {
	t.Helper()
	view := newRecordingView()
	conv, err := NewConversation(tr, view, opts...)
	require.NoError(t, err)
	t.Cleanup(conv.Close)
	return conv, view
}

func TestSubmit_IgnoresBlankInput(t *testing.T) {
	tr := newGatedTranslator()
	conv, view := newTestConversation(t, tr)

	for _, text := range []string{"", "   ", "\n\t", "　"} {
		id, ok, err := conv.Submit(context.Background(), text)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, id)
	}

	conv.Wait()
	assert.Empty(t, conv.Exchanges())
	assert.Empty(t, view.order)
	assert.Zero(t, tr.callCount(), "no request must be sent")
}

func TestSubmit_CreatesUserTurnAndPlaceholder(t *testing.T) {
	tr := newGatedTranslator()
	conv, view := newTestConversation(t, tr)

	id, ok, err := conv.Submit(context.Background(), "  我今天去日本  ")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []string{"user:" + id, "bot:" + id}, view.order)
	assert.Equal(t, "我今天去日本", view.users[id])
	assert.Equal(t, PendingMessage, view.bubble(id))

	ex, found := conv.Exchange(id)
	require.True(t, found)
	assert.Equal(t, domain.ExchangePending, ex.Status)
	assert.Equal(t, 1, conv.Pending())

	tr.release("我今天去日本")
	conv.Wait()

	ex, _ = conv.Exchange(id)
	assert.Equal(t, domain.ExchangeResolved, ex.Status)
	assert.Equal(t, "訳:我今天去日本", view.bubble(id))
	assert.Zero(t, conv.Pending())
	assert.Equal(t, 1, view.scrolls)
}

func TestSubmit_UniqueIdentifiers(t *testing.T) {
	tr := newGatedTranslator()
	conv, view := newTestConversation(t, tr, WithPoolSize(64))

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, ok, err := conv.Submit(context.Background(), fmt.Sprintf("句子%d", i))
		require.NoError(t, err)
		require.True(t, ok)
		assert.False(t, seen[id], "identifier %s reused", id)
		assert.Regexp(t, `^msg-[0-9a-f-]{36}$`, id)
		seen[id] = true
	}
	assert.Len(t, view.placeholderIDs(), 50)

	for i := 0; i < 50; i++ {
		tr.release(fmt.Sprintf("句子%d", i))
	}
	conv.Wait()
}

func TestSubmit_RegeneratesCollidingIdentifier(t *testing.T) {
	ids := []string{"msg-a", "msg-a", "msg-b"}
	next := 0
	gen := func() string {
		id := ids[next]
		next++
		return id
	}

	tr := newGatedTranslator()
	conv, _ := newTestConversation(t, tr, WithIDGenerator(gen))

	first, _, err := conv.Submit(context.Background(), "一")
	require.NoError(t, err)
	second, _, err := conv.Submit(context.Background(), "二")
	require.NoError(t, err)

	assert.Equal(t, "msg-a", first)
	assert.Equal(t, "msg-b", second)

	tr.release("一")
	tr.release("二")
	conv.Wait()
}

func TestSubmit_OverlappingRepliesResolveOwnPlaceholder(t *testing.T) {
	tr := newGatedTranslator()
	conv, view := newTestConversation(t, tr)
	ctx := context.Background()

	firstID, _, err := conv.Submit(ctx, "第一句")
	require.NoError(t, err)
	secondID, _, err := conv.Submit(ctx, "第二句")
	require.NoError(t, err)
	require.NotEqual(t, firstID, secondID)

	// The later submission resolves first.
	tr.release("第二句")
	require.Eventually(t, func() bool {
		ex, _ := conv.Exchange(secondID)
		return ex.Status == domain.ExchangeResolved
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, PendingMessage, view.bubble(firstID), "older placeholder untouched")
	assert.Equal(t, "訳:第二句", view.bubble(secondID))

	tr.release("第一句")
	conv.Wait()

	assert.Equal(t, "訳:第一句", view.bubble(firstID))
	assert.Equal(t, "訳:第二句", view.bubble(secondID))

	firstTurn, ok := view.turn(firstID)
	require.True(t, ok)
	secondTurn, ok := view.turn(secondID)
	require.True(t, ok)
	assert.Equal(t, "summary:第一句", firstTurn.Breakdown.GrammarSummary)
	assert.Equal(t, "summary:第二句", secondTurn.Breakdown.GrammarSummary)
	assert.Equal(t, "第一句", firstTurn.Breakdown.Words[0].JP)
}

func TestSubmit_ResolvedTurnCarriesTools(t *testing.T) {
	tr := newGatedTranslator()
	conv, view := newTestConversation(t, tr)

	id, _, err := conv.Submit(context.Background(), "你好")
	require.NoError(t, err)
	tr.release("你好")
	conv.Wait()

	turn, ok := view.turn(id)
	require.True(t, ok)
	assert.Equal(t, id, turn.ID)
	assert.Equal(t, "訳:你好", turn.Speak.Text())
	assert.Equal(t, SpeakLabel, turn.Speak.Label())
	assert.Equal(t, "訳:你好", turn.Copy.Text())
	assert.Equal(t, CopyLabel, turn.Copy.Label())
	assert.Equal(t, AnalysisTitle, turn.Breakdown.Title)
}

func TestSubmit_FailureShowsMessageWithoutBreakdown(t *testing.T) {
	tr := newGatedTranslator()
	conv, view := newTestConversation(t, tr)

	id, _, err := conv.Submit(context.Background(), "失败")
	require.NoError(t, err)
	tr.release("失败")
	conv.Wait()

	assert.Equal(t, FailureMessage, view.bubble(id))
	_, resolved := view.turn(id)
	assert.False(t, resolved, "failed exchange renders no breakdown")
	assert.Equal(t, 1, view.scrolls)

	ex, _ := conv.Exchange(id)
	assert.Equal(t, domain.ExchangeFailed, ex.Status)
	assert.ErrorIs(t, ex.Err, domain.ErrUpstream)
}

func TestSubmit_EmptyTranslationFails(t *testing.T) {
	tr := ports.TranslatorFunc(func(ctx context.Context, text string) (*domain.TranslationResult, error) {
		return &domain.TranslationResult{}, nil
	})
	conv, view := newTestConversation(t, tr)

	id, _, err := conv.Submit(context.Background(), "你好")
	require.NoError(t, err)
	conv.Wait()

	assert.Equal(t, FailureMessage, view.bubble(id))
	ex, _ := conv.Exchange(id)
	assert.Equal(t, domain.ExchangeFailed, ex.Status)
}

func TestSubmit_CancelledContextFails(t *testing.T) {
	tr := newGatedTranslator()
	conv, view := newTestConversation(t, tr)

	ctx, cancel := context.WithCancel(context.Background())
	id, _, err := conv.Submit(ctx, "取消")
	require.NoError(t, err)
	cancel()
	conv.Wait()

	assert.Equal(t, FailureMessage, view.bubble(id))
	ex, _ := conv.Exchange(id)
	assert.True(t, errors.Is(ex.Err, context.Canceled))
}

func TestExchanges_SubmissionOrder(t *testing.T) {
	tr := newGatedTranslator()
	conv, _ := newTestConversation(t, tr)

	texts := []string{"一", "二", "三"}
	for _, text := range texts {
		_, _, err := conv.Submit(context.Background(), text)
		require.NoError(t, err)
	}
	for i := len(texts) - 1; i >= 0; i-- {
		tr.release(texts[i])
	}
	conv.Wait()

	got := conv.Exchanges()
	require.Len(t, got, 3)
	for i, ex := range got {
		assert.Equal(t, texts[i], ex.Source)
		assert.Equal(t, domain.ExchangeResolved, ex.Status)
	}
}

func TestSubmit_DoesNotBlockWhenWorkersBusy(t *testing.T) {
	tr := newGatedTranslator()
	conv, view := newTestConversation(t, tr, WithPoolSize(2))
	ctx := context.Background()

	texts := []string{"一", "二", "三", "四", "五"}
	submitted := make(chan string, len(texts))
	go func() {
		for _, text := range texts {
			id, _, err := conv.Submit(ctx, text)
			if err == nil {
				submitted <- id
			}
		}
		close(submitted)
	}()

	var ids []string
	deadline := time.After(time.Second)
	for done := false; !done; {
		select {
		case id, ok := <-submitted:
			if !ok {
				done = true
				break
			}
			ids = append(ids, id)
		case <-deadline:
			t.Fatalf("Submit blocked with %d of %d exchanges submitted", len(ids), len(texts))
		}
	}

	require.Len(t, ids, len(texts))
	assert.Equal(t, len(texts), conv.Pending())
	for _, id := range ids {
		assert.Equal(t, PendingMessage, view.bubble(id))
	}
	require.Eventually(t, func() bool { return tr.callCount() == 2 }, time.Second, 5*time.Millisecond)

	for _, text := range texts {
		tr.release(text)
	}
	conv.Wait()

	assert.Zero(t, conv.Pending())
	assert.Equal(t, len(texts), tr.callCount())
	for i, id := range ids {
		assert.Equal(t, "訳:"+texts[i], view.bubble(id))
	}
}

func TestSpeak_DoesNotWaitForTranslations(t *testing.T) {
	tr := newGatedTranslator()
	speaker := &fakeSpeaker{available: true, spoken: make(chan [2]string, 1)}
	conv, _ := newTestConversation(t, tr, WithPoolSize(1), WithSpeaker(speaker))
	ctx := context.Background()

	_, _, err := conv.Submit(ctx, "慢")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return tr.callCount() == 1 }, time.Second, 5*time.Millisecond)

	returned := make(chan struct{})
	go func() {
		conv.Speak(ctx, "訳:慢")
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Speak waited for a pending translation")
	}
	select {
	case got := <-speaker.spoken:
		assert.Equal(t, [2]string{"訳:慢", SpeechLang}, got)
	case <-time.After(time.Second):
		t.Fatal("speech never started")
	}

	tr.release("慢")
	conv.Wait()
}
