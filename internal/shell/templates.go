package shell

// pageTemplate wraps the rendered document of one page session.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>` + pageStyle + `</style>
</head>
<body>
  <main id="pixlet" data-session="{{.SessionID}}">
    {{.Content}}
    <datalist id="pixlet-suggestions"></datalist>
    <p id="pixlet-status" class="status" role="status" hidden></p>
    <noscript><p><a href="/go/home" target="_blank" rel="noopener">{{.HomeLabel}}</a></p></noscript>
  </main>
  <footer><a href="/about">About</a></footer>
  <script src="/static/client.js"></script>
</body>
</html>
`

// aboutTemplate wraps the rendered about page.
const aboutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>About {{.Title}}</title>
  <style>` + pageStyle + `</style>
</head>
<body>
  <article>
    {{.Content}}
  </article>
</body>
</html>
`

const pageStyle = `
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; max-width: 40rem; margin: 4rem auto; padding: 0 1rem; color: #1f2328; }
h1 { font-size: 2rem; }
button { padding: .5rem 1rem; border-radius: 6px; border: 1px solid #d0d7de; background: #f6f8fa; cursor: pointer; }
form[role=search] { display: flex; gap: .5rem; margin-top: 1.5rem; }
form[role=search] input { flex: 1; padding: .5rem; border-radius: 6px; border: 1px solid #d0d7de; }
.status { margin-top: 1rem; }
.status.validation { color: #9a6700; }
.status.error { color: #cf222e; }
footer { margin-top: 3rem; font-size: .875rem; }
pre { padding: 1rem; overflow-x: auto; border-radius: 6px; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d0d7de; padding: .25rem .5rem; }
`
