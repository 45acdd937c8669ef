// Package pagesource loads flashcard page records.
//
// Records are read either from a plain JSON array or from a generated
// TypeScript/JavaScript module that embeds the array in an assignment:
//
//	export const flashcardPages: FlashcardPage[] = [ { ... }, ... ];
//
// In the module form the array runs from the first "[" after the first
// "=" to the last "]" of the file.
package pagesource
