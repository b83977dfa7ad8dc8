package storage

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"amber-server/internal/domain"
)

var ErrInvalidMagic = errors.New("invalid magic")

func (s *ReplayService) Load(path string) (*domain.ReplaySession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	session, err := ReadBinary(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read replay %s: %w", path, err)
	}
	return session, nil
}

// List возвращает файлы реплеев, новые последними.
func (s *ReplayService) List() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(s.SaveDir, "*"+replayExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func ReadBinary(r io.Reader) (*domain.ReplaySession, error) {
	// 1. Читаем заголовок целиком
	var header ReplayFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, ErrInvalidMagic
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.ActionCount < 0 {
		return nil, fmt.Errorf("negative action count: %d", header.ActionCount)
	}

	tokenBuf := make([]byte, header.TokenLen)
	if _, err := io.ReadFull(r, tokenBuf); err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	session := &domain.ReplaySession{
		Token:      string(tokenBuf),
		Seed:       header.Seed,
		TickMs:     int(header.TickMs),
		Timestamp:  header.Timestamp,
		TotalTicks: int(header.TotalTicks),
		Actions:    make([]domain.ReplayAction, header.ActionCount),
	}

	// 2. Читаем Actions
	for i := 0; i < int(header.ActionCount); i++ {
		var ah ActionHeader
		if err := binary.Read(r, binary.LittleEndian, &ah); err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}

		act := domain.ReplayAction{
			Tick:   int(ah.Tick),
			Action: domain.CommandType(ah.ActionType),
		}

		if ah.PayloadLen > 0 {
			act.Payload = make([]byte, ah.PayloadLen)
			if _, err := io.ReadFull(r, act.Payload); err != nil {
				return nil, fmt.Errorf("action %d payload: %w", i, err)
			}
		} else {
			act.Payload = json.RawMessage{}
		}

		session.Actions[i] = act
	}

	return session, nil
}
