/*
Package chat implements the conversation controller behind every kotoba front-end.

A Conversation owns the ordered list of exchanges of one session. Each
submission appends a user turn and a bot placeholder addressed by a unique ID,
then resolves that placeholder asynchronously. Replies may arrive out of
submission order; each one only ever touches its own placeholder and its own
breakdown.

# Usage

	conv, err := chat.NewConversation(translator, view,
		chat.WithSpeaker(speaker),
		chat.WithClipboard(clipboard),
		chat.WithNotifier(notifier),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer conv.Close()

	conv.Submit(ctx, "我今天去日本")
*/
package chat
