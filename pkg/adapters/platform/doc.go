/*
Package platform provides the local capabilities the terminal chat consumes:
speech synthesis through an installed TTS command and clipboard writes through
a clipboard command or the terminal's OSC52 escape sequence.
*/
package platform
