package main

import "testing"

func TestHealthURL(t *testing.T) {
	cases := []struct {
		name string
		args []string
		env  map[string]string
		want string
	}{
		{"default", nil, nil, "http://localhost:3000/health"},
		{"port", nil, map[string]string{"PORT": "8080"}, "http://localhost:8080/health"},
		{"http addr wins over port", nil, map[string]string{"PORT": "8080", "HTTP_ADDR": ":9090"}, "http://localhost:9090/health"},
		{"http addr with host", nil, map[string]string{"HTTP_ADDR": "0.0.0.0:7000"}, "http://localhost:7000/health"},
		{"malformed http addr", nil, map[string]string{"HTTP_ADDR": "7000", "PORT": "8080"}, "http://localhost:8080/health"},
		{"argument wins", []string{"5000"}, map[string]string{"HTTP_ADDR": ":9090"}, "http://localhost:5000/health"},
	}

	for _, tc := range cases {
		getenv := func(key string) string { return tc.env[key] }
		if got := healthURL(tc.args, getenv); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}
