package consts

type ContentKind string

const (
	KindPost ContentKind = "post"
	KindPage ContentKind = "page"
)

const (
	EnginePelican = "pelican"

	DeployerCaddy = "caddy"
	DeployerAWS   = "aws"
)
