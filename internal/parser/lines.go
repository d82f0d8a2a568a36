package parser

import (
	"bufio"
	"fmt"
	"os"
)

const maxLineBytes = 4 * 1024 * 1024

// scanLines calls fn for every line of the file with its 1-based number.
// "\n" and "\r\n" are both accepted as terminators.
func scanLines(filePath string, fn func(lineNum int, line string)) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", filePath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fn(lineNum, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", filePath, err)
	}
	return nil
}
