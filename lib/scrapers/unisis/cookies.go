package unisis

import (
	"net/http"
	"strings"
)

// Cookie is one (name, value) pair captured from the portal's Set-Cookie
// response. Order matters to the portal, so jars are slices, not maps.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Jar is the portal's session state. It is opaque to everything above
// the upstream client except for serialization back into a Cookie
// request header.
type Jar []Cookie

func JarFromResponse(cookies []*http.Cookie) Jar {
	jar := make(Jar, 0, len(cookies))
	for _, c := range cookies {
		if c.Name == "" {
			continue
		}
		jar = append(jar, Cookie{Name: c.Name, Value: c.Value})
	}
	return jar
}

func (j Jar) Empty() bool {
	return len(j) == 0
}

// Header serializes the jar into a Cookie request header value.
func (j Jar) Header() string {
	pairs := make([]string, len(j))
	for i, c := range j {
		pairs[i] = c.Name + "=" + c.Value
	}
	return strings.Join(pairs, "; ")
}
