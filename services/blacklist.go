package services

import (
	"bufio"
	"os"
	"strings"
)

// LoadBlackList reads one forbidden password per line. Comparison is case-insensitive.
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
			blackList[strings.ToLower(line)] = true
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return blackList, nil
}
