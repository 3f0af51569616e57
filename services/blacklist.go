package services

import (
	"bufio"
	"os"
	"strings"
)

// LoadBlackList reads one common password per line. Blank lines are skipped.
func LoadBlackList(filePath string) (map[string]bool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	blackList := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			blackList[line] = true
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return blackList, nil
}
