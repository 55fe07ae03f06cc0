/*
Package ports defines the driven ports of kotoba.

These interfaces decouple the chat controller and the gateway from the
concrete model provider, transport and platform capabilities.

# Key Interfaces

  - Translator: produces a TranslationResult for a source sentence (gateway or HTTP client).
  - LanguageModel: the external chat-completion provider.
  - Speaker, Clipboard, Notifier: platform capabilities consumed by the chat front-ends.
*/
package ports
