package pdfops

import (
	"bytes"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/JaimeStill/pdf-lab/internal/faults"
)

const aesKeyLength = 256

// Protect encrypts data with AES-256 using password for both the user and
// owner passwords.
func (s *Service) Protect(data []byte, password string) ([]byte, error) {
	conf := model.NewAESConfiguration(password, password, aesKeyLength)
	conf.ValidationMode = model.ValidationRelaxed

	var out bytes.Buffer
	if err := api.Encrypt(bytes.NewReader(data), &out, conf); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "encrypted") {
			return nil, faults.Wrap(faults.Processing, err, "document is already encrypted")
		}
		return nil, failed("encrypt", err)
	}
	return out.Bytes(), nil
}

// Unlock removes encryption from data. A wrong password yields a Password
// error and no output. Unencrypted input is returned unchanged.
func (s *Service) Unlock(data []byte, password string) ([]byte, error) {
	conf := configuration()
	conf.UserPW = password
	conf.OwnerPW = password

	var out bytes.Buffer
	err := api.Decrypt(bytes.NewReader(data), &out, conf)
	switch {
	case err == nil:
		return out.Bytes(), nil
	case strings.Contains(strings.ToLower(err.Error()), "not encrypted"):
		s.logger.Debug("unlock requested for unencrypted document")
		return data, nil
	case isPasswordError(err):
		return nil, faults.Wrap(faults.Password, err, "incorrect password")
	default:
		return nil, failed("decrypt", err)
	}
}
