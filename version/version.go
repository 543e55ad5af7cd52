package version

var version = "1.0.0"

func Full() string {
	return version
}
