package state

import (
	"time"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		DefaultIcons: map[string][]byte{
			"check": []byte(`<svg viewBox="0 0 24 24" xmlns="http://www.w3.org/2000/svg">
  <path d="M4 12 L10 18 L20 6"
        fill="none" stroke="currentColor" stroke-width="2"/>
</svg>`),
			"cross": []byte(`<svg viewBox="0 0 24 24" xmlns="http://www.w3.org/2000/svg">
  <path d="M6 6 L18 18
           M18 6 L6 18"
        fill="none" stroke="currentColor" stroke-width="2"/>
</svg>`),
			"chevron-down": []byte(`<svg viewBox="0 0 24 24" xmlns="http://www.w3.org/2000/svg">
  <path d="M5 9 L12 16 L19 9"
        fill="none" stroke="currentColor" stroke-width="2"/>
</svg>`),
			"chevron-right": []byte(`<svg viewBox="0 0 24 24" xmlns="http://www.w3.org/2000/svg">
  <path d="M9 5 L16 12 L9 19"
        fill="none" stroke="currentColor" stroke-width="2"/>
</svg>`),
			"plus": []byte(`<svg viewBox="0 0 24 24" xmlns="http://www.w3.org/2000/svg">
  <path d="M12 4 V20
           M4 12 H20"
        fill="none" stroke="currentColor" stroke-width="2"/>
</svg>`),
			"minus": []byte(`<svg viewBox="0 0 24 24" xmlns="http://www.w3.org/2000/svg">
  <path d="M4 12 H20"
        fill="none" stroke="currentColor" stroke-width="2"/>
</svg>`),
			"dot": []byte(`<svg viewBox="0 0 24 24" xmlns="http://www.w3.org/2000/svg">
  <circle cx="12" cy="12" r="4" fill="currentColor"/>
</svg>`),
			"warning": []byte(`<svg viewBox="0 0 24 24" xmlns="http://www.w3.org/2000/svg">
  <path d="M12 3 L22 20 H2 Z"
        fill="none" stroke="currentColor" stroke-width="2"/>
  <path d="M12 9 V14" stroke="currentColor" stroke-width="2"/>
  <circle cx="12" cy="17" r="1" fill="currentColor"/>
</svg>`),
		},
	}
}
