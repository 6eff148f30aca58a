// Package useragent stands in for the spec's out-of-scope "user-agent
// randomizer" collaborator (§1 Non-goals). It rotates a small fixed pool
// of realistic desktop user-agent strings, mirroring the random_user_agent
// package the Python original wires into every spider/downloader fetch.
package useragent

import "math/rand"

var pool = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
}

// Random returns one user-agent string picked uniformly from the pool.
func Random() string {
	return pool[rand.Intn(len(pool))]
}
