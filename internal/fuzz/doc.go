// Package fuzztests houses Go fuzz harnesses over the recognizer pipeline
// (source -> lexer -> parser). They guard against panics and hangs on
// arbitrary bytes and check that both lexer engines see the same tokens.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
