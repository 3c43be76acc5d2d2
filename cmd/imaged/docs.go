package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           imaged API
// @version         1.0
// @description     HTTP API for local Stable Diffusion image generation and model management.
//
// @contact.name   storyforge maintainers
// @contact.url    https://github.com/notedwin-dev/storyforge-ai
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
